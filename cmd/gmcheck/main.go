// Command gmcheck exercises the SM4 and SM3 engines: known-answer checks,
// one-shot encryption, decryption and hashing, and a throughput comparison.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "enable debug logging",
		EnvVars: []string{"GMCHECK_VERBOSE"},
	}
	keyFlag = &cli.StringFlag{
		Name:     "key",
		Aliases:  []string{"k"},
		Usage:    "16-byte key as 32 hex digits",
		EnvVars:  []string{"GMCHECK_KEY"},
		Required: true,
	}
	cipherEngineFlag = &cli.StringFlag{
		Name:    "engine",
		Usage:   "SM4 engine: reference or ttable",
		Value:   "ttable",
		EnvVars: []string{"GMCHECK_CIPHER_ENGINE"},
	}
	hashEngineFlag = &cli.StringFlag{
		Name:    "engine",
		Usage:   "SM3 engine: reference or vector",
		Value:   "vector",
		EnvVars: []string{"GMCHECK_HASH_ENGINE"},
	}
	fileFlag = &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "hash the contents of `FILE` instead of the arguments",
	}
	longFlag = &cli.BoolFlag{
		Name:    "long",
		Usage:   "also run the 1,000,000-iteration SM4 vector",
		EnvVars: []string{"GMCHECK_LONG"},
	}
	durationFlag = &cli.DurationFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "time spent on each engine",
		Value:   defaultBenchDuration,
		EnvVars: []string{"GMCHECK_BENCH_DURATION"},
	}
	sizeFlag = &cli.IntFlag{
		Name:    "size",
		Usage:   "message size in bytes for the SM3 benchmark",
		Value:   8192,
		EnvVars: []string{"GMCHECK_BENCH_SIZE"},
	}
)

var log = logrus.New()

func newApp() *cli.App {
	return &cli.App{
		Name:  "gmcheck",
		Usage: "check and time the SM4 and SM3 engines",
		Flags: []cli.Flag{verboseFlag},
		Before: func(ctx *cli.Context) error {
			log.SetOutput(ctx.App.ErrWriter)
			if ctx.Bool(verboseFlag.Name) {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "vectors",
				Usage:  "run the published test vectors on every engine",
				Flags:  []cli.Flag{longFlag},
				Action: vectorsCmd,
			},
			{
				Name:      "encrypt",
				Usage:     "encrypt one block",
				ArgsUsage: "<hex block>",
				Flags:     []cli.Flag{keyFlag, cipherEngineFlag},
				Action:    encryptCmd,
			},
			{
				Name:      "decrypt",
				Usage:     "decrypt one block",
				ArgsUsage: "<hex block>",
				Flags:     []cli.Flag{keyFlag, cipherEngineFlag},
				Action:    decryptCmd,
			},
			{
				Name:      "hash",
				Usage:     "print the SM3 digest of each argument or of a file",
				ArgsUsage: "[string...]",
				Flags:     []cli.Flag{hashEngineFlag, fileFlag},
				Action:    hashCmd,
			},
			{
				Name:   "bench",
				Usage:  "compare the throughput of the engines",
				Flags:  []cli.Flag{durationFlag, sizeFlag},
				Action: benchCmd,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
