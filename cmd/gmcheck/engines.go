package main

import (
	"fmt"

	"github.com/jedisct1/go-gm/sm3"
	"github.com/jedisct1/go-gm/sm4"
)

func cipherEngines() []sm4.Engine {
	return []sm4.Engine{sm4.Reference{}, sm4.NewTTable()}
}

func hashEngines() []sm3.Hasher {
	return []sm3.Hasher{sm3.Reference{}, sm3.Vector{}}
}

func cipherEngine(name string) (sm4.Engine, error) {
	for _, e := range cipherEngines() {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unknown SM4 engine %q", name)
}

func hashEngine(name string) (sm3.Hasher, error) {
	for _, h := range hashEngines() {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("unknown SM3 engine %q", name)
}
