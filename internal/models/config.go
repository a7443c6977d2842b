package models

// BootstrapConfig contains configuration for a bootstrap run
type BootstrapConfig struct {
	// Workspace
	TargetDir        string // Skips the directory prompt when set
	DefaultTargetDir string
	ScriptsDir       string   // Where the staged scripts are copied from
	StagedFiles      []string // Copied into the workspace root after acquisition

	// Catalog
	CatalogPath string   // Optional YAML catalog, the built-in one otherwise
	Host        string   // Git host used to build clone URLs
	Only        []string // Restricts the run to these repositories when set

	// Interaction
	AssumeDefaults bool // Accept every default and decline retries

	// Downloads
	KeyringPath string // Armored OpenPGP public keyring for archive signatures
	HTTPRetries int
}
