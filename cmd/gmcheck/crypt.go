package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func encryptCmd(ctx *cli.Context) error {
	return cryptCmd(ctx, true)
}

func decryptCmd(ctx *cli.Context) error {
	return cryptCmd(ctx, false)
}

func cryptCmd(ctx *cli.Context, encrypt bool) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one hex block, got %d arguments", ctx.NArg())
	}
	key, err := hex.DecodeString(ctx.String(keyFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	block, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid block: %w", err)
	}
	e, err := cipherEngine(ctx.String(cipherEngineFlag.Name))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"engine": e.Name(), "encrypt": encrypt}).Debug("Processing block")

	var out []byte
	if encrypt {
		out, err = e.Encrypt(block, key)
	} else {
		out, err = e.Decrypt(block, key)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(out))
	return err
}

func hashCmd(ctx *cli.Context) error {
	h, err := hashEngine(ctx.String(hashEngineFlag.Name))
	if err != nil {
		return err
	}

	if path := ctx.String(fileFlag.Name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		log.WithFields(logrus.Fields{"engine": h.Name(), "file": path, "bytes": len(data)}).Debug("Hashing file")
		digest := h.Sum(data)
		_, err = fmt.Fprintf(ctx.App.Writer, "%s  %s\n", hex.EncodeToString(digest[:]), path)
		return err
	}

	args := ctx.Args().Slice()
	if len(args) == 0 {
		args = []string{""}
	}
	for _, arg := range args {
		digest := h.Sum([]byte(arg))
		if _, err := fmt.Fprintf(ctx.App.Writer, "%s  %q\n", hex.EncodeToString(digest[:]), arg); err != nil {
			return err
		}
	}
	return nil
}
