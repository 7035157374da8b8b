package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBaseURL is the Steam Workshop item endpoint. The collection
	// identifier is appended to it verbatim, and the same prefix is stripped
	// from item links to recover their identifiers.
	DefaultBaseURL = "https://steamcommunity.com/sharedfiles/filedetails/?id="

	// DefaultCollectionID is the collection generated when no --id is given.
	DefaultCollectionID = "1182709177"

	// DefaultOutputDir is the current working directory.
	DefaultOutputDir = "."

	// DefaultFilename is the file name Garry's Mod loads workshop
	// resources from.
	DefaultFilename = "workshop.lua"

	// AppName is the application name used for XDG directory paths.
	AppName = "workshopgen"
)

// Config holds all configuration options for a generation run.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed explicitly to every component that needs it.
type Config struct {
	// CollectionID is the Steam Workshop collection to replicate.
	CollectionID string

	// OutputDir is the directory the generated file is written to.
	// An empty value means the current working directory.
	OutputDir string

	// Filename is the name of the generated file inside OutputDir.
	Filename string

	// Quiet suppresses informational console output. It never suppresses
	// the generated artifact or fatal error messages.
	Quiet bool

	// Verbose enables debug logging.
	Verbose bool

	// BaseURL is the endpoint the collection identifier is appended to.
	BaseURL string

	// ConfigFilePath is the path to the YAML configuration file.
	// If empty, .workshopgen is searched in the current and home directory.
	ConfigFilePath string

	// SaveHistory records each run in the history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	HistoryDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		CollectionID: DefaultCollectionID,
		OutputDir:    DefaultOutputDir,
		Filename:     DefaultFilename,
		BaseURL:      DefaultBaseURL,
		SaveHistory:  true,
		HistoryDir:   XDGDataDir(),
	}
}

// OutputPath returns the path of the generated file.
func (c *Config) OutputPath() string {
	if c.OutputDir == "" {
		return c.Filename
	}
	return filepath.Join(c.OutputDir, c.Filename)
}

// CollectionURL returns the page URL for the configured collection.
// The identifier is concatenated without encoding.
func (c *Config) CollectionURL() string {
	return c.BaseURL + c.CollectionID
}

// Apply overlays the values set in a configuration file onto c.
// Only fields declared by File are considered; zero values are ignored.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Collection != "" {
		c.CollectionID = f.Collection
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.Filename != "" {
		c.Filename = f.Filename
	}
	if f.Quiet != nil {
		c.Quiet = *f.Quiet
	}
	if f.Verbose != nil {
		c.Verbose = *f.Verbose
	}
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.History != nil {
		c.SaveHistory = *f.History
	}
	if f.HistoryDir != "" {
		c.HistoryDir = f.HistoryDir
	}
}

// XDGDataDir returns the XDG data directory for workshopgen.
// On Linux: ~/.local/share/workshopgen
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for workshopgen.
// On Linux: ~/.config/workshopgen
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CollectionID) == "" {
		return ErrNoCollectionID
	}
	if strings.ContainsAny(c.CollectionID, " \t\r\n") {
		return ErrInvalidCollectionID
	}
	if strings.TrimSpace(c.Filename) == "" {
		return ErrNoFilename
	}
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.SaveHistory && c.HistoryDir == "" {
		return ErrNoHistoryDir
	}
	return nil
}
