package ingest

import (
	"errors"
	"fmt"

	"github.com/gridops/gridassess/internal/assess"
)

// Mapping binds file columns to the fields the system needs. Name, Area and
// Date are required; dimensions left unmapped are imported as 0.
type Mapping struct {
	Name       string            `json:"name"`
	Area       string            `json:"area"`
	Date       string            `json:"date"`
	Dimensions map[string]string `json:"dimensions"`
}

func (m Mapping) Validate() error {
	if m.Name == "" || m.Area == "" || m.Date == "" {
		return errors.New("name, area and date columns must be mapped")
	}
	for code := range m.Dimensions {
		if _, ok := assess.ByCode(code); !ok {
			return fmt.Errorf("unknown dimension code %q in mapping", code)
		}
	}
	return nil
}

// AutoMapping maps header columns that already carry canonical names:
// name/area/date plus any dimension code or Chinese label.
func AutoMapping(header []string) Mapping {
	m := Mapping{Dimensions: map[string]string{}}

	labelToCode := map[string]string{}
	for _, d := range assess.Dimensions {
		labelToCode[d.Label] = d.Code
	}

	for _, col := range header {
		switch col {
		case "name", "姓名":
			m.Name = col
		case "area", "辖区":
			m.Area = col
		case "date", "评估日期":
			m.Date = col
		default:
			if _, ok := assess.ByCode(col); ok {
				m.Dimensions[col] = col
			} else if code, ok := labelToCode[col]; ok {
				m.Dimensions[code] = col
			}
		}
	}
	return m
}
