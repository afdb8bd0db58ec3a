package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/jedisct1/go-gm/sm4"
)

var errVectorMismatch = errors.New("test vector mismatch")

const (
	sm4Key        = "0123456789abcdeffedcba9876543210"
	sm4Plaintext  = "0123456789abcdeffedcba9876543210"
	sm4Ciphertext = "681edf34d206965e86b3e94f536e4246"
	sm4Million    = "595298c7c6fd271f0402f804c33d3f66"
)

var sm3Vectors = []struct {
	name  string
	input []byte
	want  string
}{
	{"empty", nil, "1ab21d8355cfa17f8e61194831e81a8f22bec8c728fefb747ed035eb5082aa2b"},
	{"abc", []byte("abc"), "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0"},
	{"abcd*16", bytes.Repeat([]byte("abcd"), 16), "debe9ff92275b8a138604889c18e5a4d6fdb70e5387e5765293dcba39c0c5732"},
}

// boundaryLengths are the message sizes around the padding spill point.
var boundaryLengths = []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 121, 10240}

func vectorsCmd(ctx *cli.Context) error {
	failures := runVectors(ctx.Bool(longFlag.Name))
	if failures > 0 {
		return fmt.Errorf("%w: %d checks failed", errVectorMismatch, failures)
	}
	log.Info("All checks passed")
	return nil
}

// runVectors checks every engine and returns the number of failed checks.
func runVectors(long bool) int {
	failures := 0
	check := func(fields logrus.Fields, got, want string) {
		entry := log.WithFields(fields).WithField("got", got)
		if got != want {
			failures++
			entry.WithField("want", want).Error("Mismatch")
			return
		}
		entry.Info("OK")
	}

	key, _ := hex.DecodeString(sm4Key)
	plaintext, _ := hex.DecodeString(sm4Plaintext)
	for _, e := range cipherEngines() {
		fields := logrus.Fields{"algorithm": "sm4", "engine": e.Name()}

		ciphertext, err := e.Encrypt(plaintext, key)
		if err != nil {
			failures++
			log.WithFields(fields).WithError(err).Error("Encrypt failed")
			continue
		}
		check(logrus.Fields{"algorithm": "sm4", "engine": e.Name(), "op": "encrypt"}, hex.EncodeToString(ciphertext), sm4Ciphertext)

		decrypted, err := e.Decrypt(ciphertext, key)
		if err != nil {
			failures++
			log.WithFields(fields).WithError(err).Error("Decrypt failed")
			continue
		}
		check(logrus.Fields{"algorithm": "sm4", "engine": e.Name(), "op": "decrypt"}, hex.EncodeToString(decrypted), sm4Plaintext)
	}

	if long {
		block, err := sm4.NewCipher(key)
		if err != nil {
			failures++
			log.WithError(err).Error("NewCipher failed")
		} else {
			buf := bytes.Clone(plaintext)
			for i := 0; i < 1000000; i++ {
				block.Encrypt(buf, buf)
			}
			check(logrus.Fields{"algorithm": "sm4", "engine": "block", "op": "encrypt x1000000"}, hex.EncodeToString(buf), sm4Million)
		}
	}

	for _, h := range hashEngines() {
		for _, v := range sm3Vectors {
			digest := h.Sum(v.input)
			check(logrus.Fields{"algorithm": "sm3", "engine": h.Name(), "input": v.name}, hex.EncodeToString(digest[:]), v.want)
		}
	}

	engines := hashEngines()
	ref := engines[0]
	for _, h := range engines[1:] {
		for _, n := range boundaryLengths {
			data := bytes.Repeat([]byte{0x61}, n)
			want := ref.Sum(data)
			got := h.Sum(data)
			check(logrus.Fields{"algorithm": "sm3", "engine": h.Name(), "length": n}, hex.EncodeToString(got[:]), hex.EncodeToString(want[:]))
		}
	}

	return failures
}
