package nature

// Definition declares a Field. Value takes precedence over Default as the
// initial value; both go through the same coercion as a later SetValue.
type Definition struct {
	Name          string
	Alias         string
	Type          Type
	Value         any
	Default       any
	ValueTests    []ValueTest
	Required      bool
	InvalidMsg    string
	Groups        []string
	DefaultOption bool
}
