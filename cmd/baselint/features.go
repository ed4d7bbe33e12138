package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"baselint/internal/catalog"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List the tracked feature catalog",
	Long:  `List every feature the scanner can detect, with its availability status and the engines where a minimum version is recorded`,
	RunE:  runFeatures,
}

func init() {
	featuresCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	featuresCmd.Flags().String("status", "", "only features with this status (widely|newly|limited)")
}

type featureListing struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Since   string   `json:"since,omitempty"`
	Engines []string `json:"engines,omitempty"`
	SpecURL string   `json:"specUrl,omitempty"`
}

var statusColors = map[catalog.Status]*color.Color{
	catalog.StatusWidely:  color.New(color.FgGreen),
	catalog.StatusNewly:   color.New(color.FgYellow),
	catalog.StatusLimited: color.New(color.FgRed),
}

func runFeatures(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	statusFilter, err := cmd.Flags().GetString("status")
	if err != nil {
		return fmt.Errorf("failed to get status flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	color.NoColor = !(colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)))

	var listings []featureListing
	for _, f := range catalog.Default().All() {
		if statusFilter != "" && string(f.Status) != statusFilter {
			continue
		}
		listings = append(listings, featureListing{
			ID:      f.ID,
			Name:    f.Name,
			Status:  string(f.Status),
			Since:   f.NewlySince,
			Engines: f.SupportedEngines(),
			SpecURL: f.SpecURL,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	case "pretty":
		idWidth := 0
		for _, l := range listings {
			if len(l.ID) > idWidth {
				idWidth = len(l.ID)
			}
		}
		for _, l := range listings {
			statusStyle := statusColors[catalog.Status(l.Status)]
			fmt.Fprintf(os.Stdout, "%-*s  %s  %s\n",
				idWidth, l.ID,
				statusStyle.Sprintf("%-7s", l.Status),
				strings.Join(l.Engines, ", "))
		}
		fmt.Fprintf(os.Stdout, "\n%d features\n", len(listings))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
