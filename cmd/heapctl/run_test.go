package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		body        string
		setup       func()
		wantErr     bool
		errContains string
		wantContain []string
	}{
		{
			name:        "fragment script",
			script:      "fragment.heap",
			setup:       func() { capacityFlag = "4K" },
			wantContain: []string{"Total Memory: 4,096 bytes", "Free Blocks: 3"},
		},
		{
			name:        "strategies script",
			script:      "strategies.heap",
			setup:       func() { capacityFlag = "2K" },
			wantContain: []string{"best-fit took the 50-byte hole", "Allocated"},
		},
		{
			name:        "syntax error",
			script:      "bad_syntax.heap",
			wantErr:     true,
			errContains: "line 3",
		},
		{
			name:        "failures are tolerated",
			body:        "alloc a 1\nfree nobody\necho done\n",
			wantContain: []string{"done"},
		},
		{
			name:        "strict mode fails on alloc failure",
			body:        "alloc big 2M\n",
			setup:       func() { runStrict = true },
			wantErr:     true,
			errContains: "1 alloc/free failure",
		},
		{
			name:        "strict mode counts rejected sizes",
			body:        "alloc a 0\ncheck\necho reached\n",
			setup:       func() { runStrict = true },
			wantErr:     true,
			errContains: "1 alloc/free failure",
			wantContain: []string{"reached"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t, tt.setup)

			path := ""
			if tt.script != "" {
				path = scriptPath(t, tt.script)
			} else {
				path = writeScript(t, tt.body)
			}

			output, err := captureOutput(t, func() error {
				return runRun(context.Background(), []string{path})
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("runRun() error = %v, wantErr %v\nOutput: %s", err, tt.wantErr, output)
			}
			if tt.errContains != "" && (err == nil || !strings.Contains(err.Error(), tt.errContains)) {
				t.Errorf("error %v does not contain %q", err, tt.errContains)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	resetFlags(t, nil)

	_, err := captureOutput(t, func() error {
		return runRun(context.Background(), []string{"no/such/script.heap"})
	})
	if err == nil {
		t.Fatal("expected error for missing script")
	}
}
