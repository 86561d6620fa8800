// Package config reads and writes routeutil.json, the file that marks
// a routeutil project root and configures the dev server, builds, and
// deployment.
//
// A fully populated file looks like this, with every field optional:
//
//	{
//	  "name": "gallery",
//	  "app": "app",
//	  "public": "public",
//	  "dev": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "open": true,
//	    "watch": ["app", "public"]
//	  },
//	  "build": {
//	    "output": "dist",
//	    "stripSymbols": true
//	  },
//	  "deploy": {
//	    "bucket": "gallery-site",
//	    "region": "eu-central-1"
//	  }
//	}
//
// CLI commands locate the enclosing project with LoadFromWorkingDir,
// which searches upward from the current directory:
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    return err
//	}
//	fmt.Println("serving at", cfg.DevURL())
package config
