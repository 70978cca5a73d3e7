package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote server address in format [host]:[port]
//	-d local database path
//	-c/-config json file path with configs
//	-hash-key request integrity hash key
//	-platform source platform identifier (android, ios, web)
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval background sync interval (e.g., "5m")
//	-concurrency parallel operation and chunk limit
//	-max-retries retries for transient failures
//	-chunk-size file chunk size in bytes
//	-compress-threshold compression threshold in bytes for migration export
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var hashKey string
	var platform string
	var requestTimeout time.Duration
	var syncInterval time.Duration
	var concurrency int
	var maxRetries uint64
	var chunkSize int
	var compressThreshold int

	flag.Var(&serverAddress, "a", "Remote server address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&hashKey, "hash-key", "", "Request integrity hash key")
	flag.StringVar(&platform, "platform", "", "Source platform (android, ios, web)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")
	flag.IntVar(&concurrency, "concurrency", 0, "Parallel operation and chunk limit")
	flag.Uint64Var(&maxRetries, "max-retries", 0, "Retries for transient failures")
	flag.IntVar(&chunkSize, "chunk-size", 0, "File chunk size in bytes")
	flag.IntVar(&compressThreshold, "compress-threshold", 0, "Compression threshold in bytes")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			HashKey:  hashKey,
			Platform: platform,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			Interval:          syncInterval,
			Concurrency:       concurrency,
			MaxRetries:        maxRetries,
			ChunkSize:         chunkSize,
			CompressThreshold: compressThreshold,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
