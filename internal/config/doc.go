// Package config loads the reactor CLI configuration.
//
// The configuration lives in reactor.json or reactor.yaml in the working
// directory; REACTOR_CONFIG names a file explicitly.
//
// # Configuration File Structure
//
//	{
//	  "runtime": {
//	    "maxPasses": 50,
//	    "maxEffectRunsPerFlush": 0,
//	    "dispatchQueue": 256
//	  },
//	  "inspector": {
//	    "addr": "localhost:7070",
//	    "pathPrefix": "/_reactor"
//	  },
//	  "archive": {
//	    "enabled": true,
//	    "bucket": "my-commits",
//	    "prefix": "dev/"
//	  },
//	  "cloudwatch": {
//	    "enabled": false,
//	    "group": "/reactor/commits"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  }
//	}
//
// The same keys work in YAML.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	root := reactor.NewRoot(h, reactor.WithConfig(cfg.ReactorConfig()))
package config
