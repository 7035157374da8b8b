// Package config provides configuration structures and utilities for
// workshopgen. It defines the options of a generation run, the optional
// YAML configuration file and the XDG directories used for history.
package config
