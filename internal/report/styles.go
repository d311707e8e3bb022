package report

import (
	"github.com/xuri/excelize/v2"
)

// Workbook palette, carried over from the original dashboard design.
const (
	colorTitle  = "2E5090"
	colorHeader = "4472C4"
	colorMetric = "D9E1F2"

	colorBlue        = "4472C4"
	colorBlueLight   = "D9E1F2"
	colorGreen       = "00B050"
	colorGreenLight  = "E2EFD9"
	colorPurple      = "9B59B6"
	colorPurpleLight = "E8DAEF"
	colorTeal        = "17A2B8"
	colorTealLight   = "D1ECF1"
	colorRed         = "FF6B6B"
	colorRedLight    = "F8D7DA"
	colorAmber       = "FFF3CD"
	colorAmberText   = "FFA500"
)

// styleSet holds the style IDs registered against one workbook. Styles are
// file-scoped in excelize, so the set is rebuilt per run.
type styleSet struct {
	title      int
	header     int
	metricFill int
	metricFont int

	percent  int
	currency int

	cardValue map[string]int // card color -> large value style
	cardHead  map[string]int // card color -> white header style

	statusClean    int
	statusWarn     int
	statusCritical int
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Style: 1, Color: "000000"})
	}
	return borders
}

func fill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

// newStyleSet registers every style the dashboard needs on f.
func newStyleSet(f *excelize.File) (*styleSet, error) {
	s := &styleSet{
		cardValue: make(map[string]int),
		cardHead:  make(map[string]int),
	}

	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorTitle),
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorHeader),
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	s.metricFill, err = f.NewStyle(&excelize.Style{
		Fill:      fill(colorMetric),
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	s.metricFont, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, err
	}

	s.percent, err = f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return nil, err
	}

	currencyFmt := "#,##0.00"
	s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return nil, err
	}

	cards := map[string][2]string{
		"blue":   {colorBlue, colorBlueLight},
		"green":  {colorGreen, colorGreenLight},
		"purple": {colorPurple, colorPurpleLight},
		"teal":   {colorTeal, colorTealLight},
		"red":    {colorRed, colorRedLight},
	}
	for name, pair := range cards {
		head, err := f.NewStyle(&excelize.Style{
			Fill:      fill(pair[0]),
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
			Border:    thinBorders(),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return nil, err
		}
		value, err := f.NewStyle(&excelize.Style{
			Fill:      fill(pair[1]),
			Font:      &excelize.Font{Bold: true, Color: pair[0], Size: 18},
			Border:    thinBorders(),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
		if err != nil {
			return nil, err
		}
		s.cardHead[name] = head
		s.cardValue[name] = value
	}

	s.statusClean, err = f.NewStyle(&excelize.Style{
		Fill: fill(colorGreenLight),
		Font: &excelize.Font{Bold: true, Color: colorGreen},
	})
	if err != nil {
		return nil, err
	}

	s.statusWarn, err = f.NewStyle(&excelize.Style{
		Fill: fill(colorAmber),
		Font: &excelize.Font{Bold: true, Color: colorAmberText},
	})
	if err != nil {
		return nil, err
	}

	s.statusCritical, err = f.NewStyle(&excelize.Style{
		Fill: fill(colorRedLight),
		Font: &excelize.Font{Bold: true, Color: colorRed},
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}
