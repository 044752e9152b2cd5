// Package config manages user-level settings stored at ~/.pros/config.yaml.
// It provides functions to load, read, and write keys such as the kernel
// download site, the kernel cache location, and overrides for the files the
// default upgrader manages.
package config
