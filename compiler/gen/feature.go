package gen

var (
	// FeatureStringer generates String methods for Operation and the
	// property enums.
	FeatureStringer = Feature{
		Name:        "stringer",
		Default:     true,
		Description: "Generates String methods returning catalogue names for every enumeration",
	}

	// FeatureLookup generates ParseOperation, the reverse of String.
	FeatureLookup = Feature{
		Name:        "lookup",
		Default:     true,
		Description: "Generates ParseOperation for resolving a kind from its catalogue name",
	}

	// FeatureDispatch generates the New factory switch and PropertyTable in
	// the aggregate artifact.
	FeatureDispatch = Feature{
		Name:        "dispatch",
		Default:     true,
		Description: "Generates New(op, args...) and PropertyTable(safeIntegerArithmetic)",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureStringer,
		FeatureLookup,
		FeatureDispatch,
	}
)

// A Feature of the vertex codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
