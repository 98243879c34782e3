package handler

import (
	_ "embed"
	"fmt"
	"os"

	M "github.com/swastikanata/ecommerce-dashboard/model"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

//go:embed templates/narrative.yaml
var defaultNarrative []byte

// Narrative is the text of the dashboard page: title, tabs and the commentary around
// each chart. It is content, not code, and can be replaced without a rebuild.
type Narrative struct {
	Title   string         `yaml:"title"`
	Caption string         `yaml:"caption"`
	Cards   NarrativeCards `yaml:"cards"`
	Tabs    []NarrativeTab `yaml:"tabs"`
}

type NarrativeCards struct {
	TotalRevenue string `yaml:"total_revenue"`
	TotalOrders  string `yaml:"total_orders"`
}

type NarrativeTab struct {
	ID          string           `yaml:"id"`
	Label       string           `yaml:"label"`
	Header      string           `yaml:"header"`
	ShowMetrics bool             `yaml:"show_metrics"`
	Blocks      []NarrativeBlock `yaml:"blocks"`
}

// NarrativeBlock is either a chart reference or a paragraph with optional bullets
// and recommendation.
type NarrativeBlock struct {
	Chart          string   `yaml:"chart"`
	Text           string   `yaml:"text"`
	Bullets        []string `yaml:"bullets"`
	Recommendation string   `yaml:"recommendation"`
}

// LoadNarrative reads the narrative from path, or the embedded default when path is empty.
func LoadNarrative(path string) (*Narrative, error) {
	raw := defaultNarrative
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			log.WithField("file", path).WithError(err).Error("Failed to read narrative file.")
			return nil, errors.Wrap(err, "failed to read narrative")
		}
	}
	return ParseNarrative(raw)
}

func ParseNarrative(raw []byte) (*Narrative, error) {
	var narrative Narrative
	if err := yaml.UnmarshalStrict(raw, &narrative); err != nil {
		return nil, errors.Wrap(err, "failed to parse narrative")
	}
	if err := narrative.validate(); err != nil {
		return nil, err
	}
	return &narrative, nil
}

func (n *Narrative) validate() error {
	if len(n.Tabs) == 0 {
		return errors.New("narrative has no tabs")
	}

	knownCharts := make(map[string]bool, len(M.ChartIDs))
	for _, id := range M.ChartIDs {
		knownCharts[id] = true
	}
	tabIDs := make(map[string]bool, len(n.Tabs))
	for i, tab := range n.Tabs {
		if tab.ID == "" || tabIDs[tab.ID] {
			return fmt.Errorf("tab %d has a missing or duplicate id %q", i+1, tab.ID)
		}
		tabIDs[tab.ID] = true

		for _, block := range tab.Blocks {
			if block.Chart != "" && !knownCharts[block.Chart] {
				return fmt.Errorf("tab %s references unknown chart %q", tab.ID, block.Chart)
			}
		}
	}
	return nil
}
