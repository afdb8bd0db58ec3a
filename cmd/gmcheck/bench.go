package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/sys/cpu"

	"github.com/jedisct1/go-gm/sm4"
)

const defaultBenchDuration = time.Second

type benchResult struct {
	algorithm string
	engine    string
	size      int
	ops       int
	elapsed   time.Duration
}

func (r benchResult) nsPerOp() float64 {
	if r.ops == 0 {
		return 0
	}
	return float64(r.elapsed.Nanoseconds()) / float64(r.ops)
}

func (r benchResult) mbPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.size*r.ops) / r.elapsed.Seconds() / (1024 * 1024)
}

func benchCmd(ctx *cli.Context) error {
	d := ctx.Duration(durationFlag.Name)
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	size := ctx.Int(sizeFlag.Name)
	if size < 0 {
		return fmt.Errorf("size must not be negative, got %d", size)
	}

	results, err := runBench(d, size)
	if err != nil {
		return err
	}
	writeBench(ctx.App.Writer, results)
	return nil
}

// runBench times every engine for roughly d each.
func runBench(d time.Duration, size int) ([]benchResult, error) {
	var results []benchResult

	key := []byte("0123456789abcdef")
	block := make([]byte, sm4.BlockSize)
	for _, e := range cipherEngines() {
		log.WithField("engine", e.Name()).Debug("Timing SM4")
		r := benchResult{algorithm: "sm4", engine: e.Name(), size: sm4.BlockSize}
		start := time.Now()
		for time.Since(start) < d {
			for i := 0; i < 1000; i++ {
				out, err := e.Encrypt(block, key)
				if err != nil {
					return nil, err
				}
				block = out
			}
			r.ops += 1000
		}
		r.elapsed = time.Since(start)
		results = append(results, r)
	}

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	for _, h := range hashEngines() {
		log.WithField("engine", h.Name()).Debug("Timing SM3")
		r := benchResult{algorithm: "sm3", engine: h.Name(), size: size}
		start := time.Now()
		for time.Since(start) < d {
			for i := 0; i < 16; i++ {
				_ = h.Sum(data)
			}
			r.ops += 16
		}
		r.elapsed = time.Since(start)
		results = append(results, r)
	}

	return results, nil
}

func cpuFeatures() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		for _, f := range []struct {
			name string
			ok   bool
		}{
			{"sse2", cpu.X86.HasSSE2},
			{"ssse3", cpu.X86.HasSSSE3},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"bmi2", cpu.X86.HasBMI2},
		} {
			if f.ok {
				features = append(features, f.name)
			}
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "asimd")
		}
		if cpu.ARM64.HasSM3 {
			features = append(features, "sm3")
		}
		if cpu.ARM64.HasSM4 {
			features = append(features, "sm4")
		}
	}
	if len(features) == 0 {
		return "none detected"
	}
	return strings.Join(features, " ")
}

func writeBench(w io.Writer, results []benchResult) {
	fmt.Fprintf(w, "%s/%s, %s, CPU features: %s\n\n", runtime.GOOS, runtime.GOARCH, runtime.Version(), cpuFeatures())

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algorithm", "Engine", "Size", "Ops", "ns/op", "MB/s"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range results {
		table.Append([]string{
			r.algorithm,
			r.engine,
			fmt.Sprintf("%d", r.size),
			fmt.Sprintf("%d", r.ops),
			fmt.Sprintf("%.1f", r.nsPerOp()),
			fmt.Sprintf("%.2f", r.mbPerSec()),
		})
	}
	table.Render()
}
