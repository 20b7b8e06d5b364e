// Package config loads the error reporting configuration and builds the
// sink dispatcher from it.
//
// Values come from the environment (caarlos0/env tags) and are then
// overridden by an optional YAML or TOML file:
//
//	level: debug
//	stack: [daily, mail]
//	channels:
//	  daily:
//	    driver: file
//	    path: storage/logs/errors.html
//	    max_files: 14
//	  mail:
//	    driver: email
//	    level: error
//	    receiver: ops@example.com, dev@example.com
//	  chat:
//	    driver: telegram
//	    token: "123:abc"
//	    chat_id: "-100123"
//	    bubble: false
//	    proxy: {host: 10.0.0.1, port: 1080, type: socks5}
//
// Channels are delivered in stack order, or by sorted name when no stack
// is given. The driver defaults to file. Every driver except file renders
// full pages unless full_page says otherwise.
//
//	cfg, err := config.Load("errorkit.yaml")
//	d, err := cfg.Dispatcher(logger)
package config
