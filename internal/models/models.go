package models

// Identifiers joins a logical structure division to its descriptive metadata
// block and the physical pages it spans.
type Identifiers struct {
	LogicalID   string   `json:"logical_id" yaml:"logicalid" parquet:"logical_id"`
	MetadataID  string   `json:"metadata_id,omitempty" yaml:"metadataid,omitempty" parquet:"metadata_id,optional"`
	PhysicalIDs []string `json:"physical_ids,omitempty" yaml:"physicalids,omitempty" parquet:"physical_ids,list"`
}

// StructuralElement is one resolved logical division (e.g. "Article", "Chapter")
// with its bibliographic metadata. Empty strings mean the value was absent.
type StructuralElement struct {
	Identifiers Identifiers `json:"identifiers" yaml:"identifiers" parquet:"identifiers"`
	Type        string      `json:"type,omitempty" yaml:"type,omitempty" parquet:"type,optional"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty" parquet:"title,optional"`
	SubTitle    string      `json:"subtitle,omitempty" yaml:"subtitle,omitempty" parquet:"subtitle,optional"`
	Authors     []string    `json:"authors,omitempty" yaml:"authors,omitempty" parquet:"authors,list"`
	Abstract    string      `json:"abstract,omitempty" yaml:"abstract,omitempty" parquet:"abstract,optional"`
	Language    string      `json:"language,omitempty" yaml:"language,omitempty" parquet:"language,optional"`
	PageLabel   string      `json:"page_label,omitempty" yaml:"pagelabel,omitempty" parquet:"page_label,optional"`
}

// PageInfo holds the per-page data of a structural element: the 8-digit image
// numbers, the URNs and the raw first/last page labels.
type PageInfo struct {
	LogicalID    string   `json:"logical_id" yaml:"logicalid"`
	OrderNumbers []string `json:"order_numbers" yaml:"ordernumbers"`
	URNs         []string `json:"urns" yaml:"urns"`
	FirstLabel   string   `json:"first_label,omitempty" yaml:"firstlabel,omitempty"`
	LastLabel    string   `json:"last_label,omitempty" yaml:"lastlabel,omitempty"`
}
