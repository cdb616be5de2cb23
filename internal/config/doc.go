// Package config provides configuration parsing for bindery projects.
//
// The configuration is stored in bindery.json, bindery.yaml or bindery.toml
// at the project root. This package handles loading, saving, and
// validating configuration, and turns it into engine options.
//
// # Configuration File Structure
//
//	{
//	  "name": "signup-form",
//	  "engine": {
//	    "rebind": "teardown",
//	    "markerRemoval": "release"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "namespace": "bindery"
//	  },
//	  "inspect": {
//	    "addr": "localhost:7070"
//	  },
//	  "model": {
//	    "email": "",
//	    "topics": ["news"]
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	opts, err := cfg.EngineOptions(cfg.Logger(os.Stderr), prometheus.DefaultRegisterer)
package config
