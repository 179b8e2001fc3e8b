package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/healthkeeper/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
//	-a string     HTTP bind address (e.g. ":8001")
//	-l string     gRPC health bind address
//	-d string     PostgreSQL DSN
//	-n string     database name overriding the DSN
//	-s string     JWT HMAC secret key
//	-o string     comma-separated CORS origins
//	-k int        bcrypt cost
//	-v string     log level
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-r string     S3 region
//	-e string     S3 base endpoint
//	-x duration   export download link lifetime (e.g. "15m")
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and unknown
// flags do not trip the parser. Parse errors panic.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-l", "-d", "-n", "-s", "-o", "-k", "-v", "-u", "-p", "-b", "-r", "-e", "-x",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCHealthAddr, "l", config.GRPCHealthAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&config.ExportURLTTL, "x", config.ExportURLTTL, "export link lifetime")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "o" {
			config.CORSOrigins = splitList(*origins)
		}
	})
}
