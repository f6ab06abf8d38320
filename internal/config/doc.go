// Package config loads server and database settings from defaults, an
// optional YAML file and TASKAPI_* environment variables, then validates
// them before any component is built.
package config
