package core

// Project holds the project-level constants a generation request runs against.
// EffectiveDate and ExpiryDate feed the PROJECT_EFF and PROJECT_EXP tokens and
// may be in any format the date normalizer accepts.
type Project struct {
	Name          string `koanf:"name" yaml:"name" json:"name"`
	Carrier       string `koanf:"carrier" yaml:"carrier" json:"carrier"`
	EffectiveDate string `koanf:"effective_date" yaml:"effectiveDate" json:"effectiveDate"`
	ExpiryDate    string `koanf:"expiry_date" yaml:"expiryDate" json:"expiryDate"`
}
