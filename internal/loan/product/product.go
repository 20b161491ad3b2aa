// internal/loan/product/product.go
package product

// Kind classifies a field for extraction and parsing purposes.
type Kind int

const (
	KindName Kind = iota
	KindEmail
	KindPhone
	KindNumber
	KindCurrency
	KindEnum
	KindYesNo
)

// RejectCategory tags a validation rejection.
type RejectCategory string

const (
	RejectFormat     RejectCategory = "format"
	RejectOutOfRange RejectCategory = "out_of_range"
	RejectIneligible RejectCategory = "ineligible"
)

// NumericRule is one ordered bound check on a parsed numeric value. Rules
// are evaluated top to bottom; the first that fires rejects the value.
type NumericRule struct {
	Op       string // "lt", "le", "gt", "ge", "outside"
	Value    float64
	Value2   float64 // upper bound for "outside"
	Category RejectCategory
	Message  string
}

// Fires reports whether v violates the rule.
func (r NumericRule) Fires(v float64) bool {
	switch r.Op {
	case "lt":
		return v < r.Value
	case "le":
		return v <= r.Value
	case "gt":
		return v > r.Value
	case "ge":
		return v >= r.Value
	case "outside":
		return v < r.Value || v > r.Value2
	default:
		return false
	}
}

// FieldSpec describes one required field: how to recognize it in free text,
// how to parse it, and which business rules gate it.
type FieldSpec struct {
	Name    string
	Kind    Kind
	Ask     string            // short phrase used in deterministic follow-ups
	Allowed []string          // canonical values for KindEnum / KindYesNo
	Synonym map[string]string // lowercase phrase -> canonical value (fallback extraction)
	Rules   []NumericRule     // ordered checks for numeric kinds
	EnumMsg string            // rejection message when value not in Allowed
}

// ScoreTier is one breakpoint of a score-to-label mapping, ordered by
// descending Min.
type ScoreTier struct {
	Min   float64
	Label string
}

// DerivedRule declares that Target is computable from Source, so a profile
// holding Source satisfies the Target slot.
type DerivedRule struct {
	Source string
	Target string
	Tiers  []ScoreTier
}

// Apply maps a source value through the tier table.
func (d DerivedRule) Apply(v float64) string {
	for _, t := range d.Tiers {
		if v >= t.Min {
			return t.Label
		}
	}
	if len(d.Tiers) > 0 {
		return d.Tiers[len(d.Tiers)-1].Label
	}
	return ""
}

// CrossRule is a constraint spanning several fields. Check runs only when
// every named field is present and returns a violation message or empty.
type CrossRule struct {
	Fields []string
	Check  func(num func(string) float64) string
}

// Bounds are the hard output clamps applied to every prediction.
type Bounds struct {
	AmountFloor float64
	AmountCeil  float64
	RateFloor   float64
	RateCeil    float64

	// Optional collateral cap: amount <= CollateralRatio * profile[CollateralField].
	CollateralField string
	CollateralRatio float64
}

// Definition is the full static configuration of one loan product.
// Immutable after load; safe for concurrent use.
type Definition struct {
	ID          string
	DisplayName string

	Required []string
	Fields   map[string]FieldSpec

	Derived    []DerivedRule
	CrossRules []CrossRule

	// RequestedField names the profile entry holding the requested amount,
	// compared against the predicted amount for the approval status.
	RequestedField string

	SystemPrompt     string
	FallbackGreeting string

	FeatureColumns []string
	// Computed features derived from profile numerics at feature-build time.
	Computed map[string]func(num func(string) float64) float64
	// Static label encodings for categorical columns, overridable by the
	// model artifact's bundled encoders.
	Encodings map[string]map[string]float64
	// Defaults fill feature columns absent from both profile and formulas.
	Defaults map[string]float64

	Bounds       Bounds
	ArtifactFile string
}

// Field returns the spec for a field name.
func (d *Definition) Field(name string) (FieldSpec, bool) {
	f, ok := d.Fields[name]
	return f, ok
}

// DerivedFor returns the rule producing target, if any.
func (d *Definition) DerivedFor(target string) (DerivedRule, bool) {
	for _, r := range d.Derived {
		if r.Target == target {
			return r, true
		}
	}
	return DerivedRule{}, false
}

// MissingFields lists required fields absent from the profile, treating a
// derivable field as satisfied when its source is present.
func (d *Definition) MissingFields(profile map[string]interface{}) []string {
	missing := []string{}
	for _, name := range d.Required {
		if _, ok := profile[name]; ok {
			continue
		}
		if rule, ok := d.DerivedFor(name); ok {
			if _, ok := profile[rule.Source]; ok {
				continue
			}
		}
		missing = append(missing, name)
	}
	return missing
}

// contactFields are collected by every product before the product-specific
// ones.
func contactFields() []FieldSpec {
	return []FieldSpec{
		{
			Name: "Customer_Name",
			Kind: KindName,
			Ask:  "your full name",
		},
		{
			Name: "Customer_Email",
			Kind: KindEmail,
			Ask:  "your email address",
		},
		{
			Name: "Customer_Phone",
			Kind: KindPhone,
			Ask:  "your 10-digit phone number",
		},
	}
}

// buildFieldMap indexes specs by name.
func buildFieldMap(specs []FieldSpec) map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return m
}

// fieldNames preserves declaration order.
func fieldNames(specs []FieldSpec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}
