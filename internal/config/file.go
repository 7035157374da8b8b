package config

// File represents the structure of the .workshopgen configuration file.
// Boolean options are pointers so an explicit false can be told apart from
// an omitted key.
type File struct {
	// Collection is the collection identifier to generate.
	Collection string `yaml:"collection,omitempty"`

	// OutputDir is the directory the generated file is written to.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Filename is the generated file name.
	Filename string `yaml:"filename,omitempty"`

	// Quiet suppresses informational output.
	Quiet *bool `yaml:"quiet,omitempty"`

	// Verbose enables debug logging.
	Verbose *bool `yaml:"verbose,omitempty"`

	// BaseURL overrides the Steam Workshop endpoint.
	BaseURL string `yaml:"baseURL,omitempty"`

	// History enables or disables recording runs in the history database.
	History *bool `yaml:"history,omitempty"`

	// HistoryDir overrides the history database directory.
	HistoryDir string `yaml:"historyDir,omitempty"`
}
