package dao

// Parameter filters List results by a named field.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a single or multi value parameter
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Values returns parameter values as a slice
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}
