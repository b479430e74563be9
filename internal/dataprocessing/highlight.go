package dataprocessing

import "metricsboard/pkg/contracts/domain"

// HighlightSelection is the legend state of the line chart
type HighlightSelection struct {
	Options        []domain.DatasetOption
	HighlightLabel string
}

// SelectHighlight builds one option per dataset and checks the default series:
// "自己資産" when present, otherwise the first dataset. With no datasets the
// label is empty and there are no options.
func SelectHighlight(datasets []domain.ChartDataset) HighlightSelection {
	selection := HighlightSelection{Options: make([]domain.DatasetOption, 0, len(datasets))}
	if len(datasets) == 0 {
		return selection
	}

	selection.HighlightLabel = datasets[0].Label
	for _, ds := range datasets {
		if ds.Label == domain.DefaultHighlightLabel {
			selection.HighlightLabel = domain.DefaultHighlightLabel
			break
		}
	}

	for _, ds := range datasets {
		selection.Options = append(selection.Options, domain.DatasetOption{
			Label:   ds.Label,
			Checked: ds.Label == selection.HighlightLabel,
		})
	}
	return selection
}
