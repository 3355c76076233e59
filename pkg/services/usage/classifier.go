package usage

import "slices"

// ResourceClassMapping assigns a hardware resource class to an SU type.
type ResourceClassMapping struct {
	ResourceClass string `mapstructure:"resource_class" validate:"required"`
	SUType        string `mapstructure:"su_type" validate:"required"`
}

// Catalog is the lookup data used to classify leases.
type Catalog struct {
	SUTypes         []string               `mapstructure:"su_types"`
	ResourceClasses []ResourceClassMapping `mapstructure:"resource_classes" validate:"dive"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		SUTypes: []string{
			"BM FC430",
			"BM FC830",
			"BM GPUA100SXM4",
			"BM GPUH100",
		},
		ResourceClasses: []ResourceClassMapping{
			{ResourceClass: "lenovo-sd665nv3-h100", SUType: "BM GPUH100"},
			{ResourceClass: "lenovo-sd650nv2-a100", SUType: "BM GPUA100SXM4"},
			{ResourceClass: "sd650nv2", SUType: "BM GPUA100SXM4"},
			{ResourceClass: "fc430", SUType: "BM FC430"},
			{ResourceClass: "fc830", SUType: "BM FC830"},
		},
	}
}

type Classifier struct {
	mapping map[string]string
	suTypes []string
}

// NewClassifier builds a classifier from a private copy of the catalog.
func NewClassifier(catalog Catalog) *Classifier {
	mapping := make(map[string]string, len(catalog.ResourceClasses))
	for _, m := range catalog.ResourceClasses {
		mapping[m.ResourceClass] = m.SUType
	}
	return &Classifier{
		mapping: mapping,
		suTypes: slices.Clone(catalog.SUTypes),
	}
}

// Classify maps a resource class to its SU type. Unmapped classes are
// returned verbatim; known reports whether the result is a canonical SU type.
func (c *Classifier) Classify(resourceClass string) (suType string, known bool) {
	suType, ok := c.mapping[resourceClass]
	if !ok {
		suType = resourceClass
	}
	return suType, slices.Contains(c.suTypes, suType)
}

// SUTypes lists the canonical SU types.
func (c *Classifier) SUTypes() []string {
	return slices.Clone(c.suTypes)
}
