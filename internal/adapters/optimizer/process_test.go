package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"route-optimizer-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperOptimizer re-executes the test binary as a fake optimizer process.
func helperOptimizer(mode string) *ProcessOptimizer {
	return &ProcessOptimizer{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperProcess", "--", mode},
		Env:  []string{"GO_WANT_HELPER_PROCESS=1"},
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "missing mode")
		os.Exit(2)
	}

	switch args[1] {
	case "reverse":
		var req Request
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		routes := req.Routes
		for i, j := 0, len(routes)-1; i < j; i, j = i+1, j-1 {
			routes[i], routes[j] = routes[j], routes[i]
		}
		_ = json.NewEncoder(os.Stdout).Encode(Response{Success: true, Optimizer: "reverse", OptimizedRoutes: routes})
	case "crash":
		fmt.Fprintln(os.Stderr, "segmentation fault")
		os.Exit(3)
	case "garbage":
		fmt.Println("Traceback (most recent call last):")
	case "flood":
		chunk := bytes.Repeat([]byte("x"), 64<<10)
		for i := 0; i < 2*maxResponseBytes/len(chunk); i++ {
			if _, err := os.Stdout.Write(chunk); err != nil {
				os.Exit(1)
			}
		}
	case "hang":
		time.Sleep(30 * time.Second)
	}
}

func TestProcessOptimizerSuccess(t *testing.T) {
	out, err := helperOptimizer("reverse").Optimize(context.Background(), []domain.Stop{stopA, stopB, stopC})
	require.NoError(t, err)

	assert.Equal(t, domain.Tour{stopC, stopB, stopA}, out.Tour)
	assert.Equal(t, "reverse", out.Label)
}

func TestProcessOptimizerNonZeroExit(t *testing.T) {
	_, err := helperOptimizer("crash").Optimize(context.Background(), []domain.Stop{stopA, stopB})
	require.ErrorIs(t, err, domain.ErrExternalOptimizerUnavailable)
	assert.Contains(t, err.Error(), "segmentation fault")
}

func TestProcessOptimizerMalformedOutput(t *testing.T) {
	_, err := helperOptimizer("garbage").Optimize(context.Background(), []domain.Stop{stopA, stopB})
	assert.ErrorIs(t, err, domain.ErrExternalOptimizerUnavailable)
}

func TestProcessOptimizerKilledOnTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := helperOptimizer("hang").Optimize(ctx, []domain.Stop{stopA, stopB})

	require.ErrorIs(t, err, domain.ErrExternalOptimizerUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestNewProcessOptimizer(t *testing.T) {
	p, err := NewProcessOptimizer("  ./bin/optimizer  -fleet default ")
	require.NoError(t, err)
	assert.Equal(t, "./bin/optimizer", p.Path)
	assert.Equal(t, []string{"-fleet", "default"}, p.Args)

	_, err = NewProcessOptimizer("   ")
	assert.Error(t, err)
}

func TestProcessOptimizerMissingBinary(t *testing.T) {
	p := &ProcessOptimizer{Path: "/nonexistent/optimizer"}
	_, err := p.Optimize(context.Background(), []domain.Stop{stopA, stopB})
	assert.ErrorIs(t, err, domain.ErrExternalOptimizerUnavailable)
}

func TestProcessOptimizerCapsOutput(t *testing.T) {
	_, err := helperOptimizer("flood").Optimize(context.Background(), []domain.Stop{stopA, stopB})

	require.ErrorIs(t, err, domain.ErrExternalOptimizerUnavailable)
	assert.ErrorIs(t, err, errOutputTooLarge)
}

func TestCappedBuffer(t *testing.T) {
	c := &cappedBuffer{max: 4}
	n, err := c.Write([]byte("abcdef"))
	assert.Equal(t, 4, n)
	assert.ErrorIs(t, err, errOutputTooLarge)
	assert.Equal(t, "abcd", c.String())
	assert.True(t, c.exceeded)

	tr := &cappedBuffer{max: 4, truncate: true}
	n, err = tr.Write([]byte("abcdef"))
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "abcd", tr.String())
}
