package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML problem definition file
type ProblemParameters struct {
	Title           string         `json:"Title"`
	K               int            `json:"ElementCount"`
	PolynomialOrder map[string]int `json:"PolynomialOrder"` // Per field name
	QuadratureOrder int            `json:"QuadratureOrder"` // Points per cell; 0 selects order+1
	XMin            float64        `json:"XMin"`
	XMax            float64        `json:"XMax"`
}

func (pp *ProblemParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, pp); err != nil {
		return
	}
	return pp.Validate()
}

func (pp *ProblemParameters) Validate() error {
	if pp.K < 1 {
		return fmt.Errorf("ElementCount must be at least 1, got %d", pp.K)
	}
	if len(pp.PolynomialOrder) == 0 {
		return fmt.Errorf("at least one field must be given a PolynomialOrder")
	}
	for name, p := range pp.PolynomialOrder {
		if p < 1 {
			return fmt.Errorf("field %q: PolynomialOrder must be at least 1, got %d", name, p)
		}
	}
	if pp.XMax <= pp.XMin {
		return fmt.Errorf("XMax (%g) must exceed XMin (%g)", pp.XMax, pp.XMin)
	}
	return nil
}

// FieldNames returns the field names in deterministic order.
func (pp *ProblemParameters) FieldNames() (names []string) {
	names = make([]string, 0, len(pp.PolynomialOrder))
	for name := range pp.PolynomialOrder {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// NQuad is the quadrature point count, defaulting to the highest field order
// plus one when unset.
func (pp *ProblemParameters) NQuad() (n int) {
	if pp.QuadratureOrder > 0 {
		return pp.QuadratureOrder
	}
	for _, p := range pp.PolynomialOrder {
		if p+1 > n {
			n = p + 1
		}
	}
	return
}

func (pp *ProblemParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", pp.Title)
	fmt.Printf("[%d]\t\t\t= Element Count\n", pp.K)
	fmt.Printf("[%8.5f,%8.5f]\t= Domain\n", pp.XMin, pp.XMax)
	fmt.Printf("[%d]\t\t\t= Quadrature Points\n", pp.NQuad())
	for _, name := range pp.FieldNames() {
		fmt.Printf("Field[%s] order = %d\n", name, pp.PolynomialOrder[name])
	}
}
