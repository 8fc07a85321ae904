package breaker

import "fmt"

// Result summarizes one [SplitFile] call.
type Result struct {
	FilesWritten int
	LineCount    int
	// Warnings has one entry per chunk that exceeds the requested size.
	Warnings []string
	// Outputs are the written paths in chunk order.
	Outputs []string
	Plan    Plan
}

// SplitFile splits the file at input into chunks of at most maxLinesPerChunk
// lines named after destinationBase, keeping every blank node within one
// chunk. A file that needs no split is copied to destinationBase plus the
// configured extension.
func SplitFile(input, destinationBase string, maxLinesPerChunk int, opts ...Option) (Result, error) {
	if maxLinesPerChunk <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidBound, maxLinesPerChunk)
	}

	options := buildOptions(opts)

	occ, lineCount, err := ScanFile(input)
	if err != nil {
		return Result{}, err
	}

	plan, err := SelectBreakpoints(occ, lineCount, maxLinesPerChunk)
	if err != nil {
		return Result{}, err
	}

	outputs, err := WriteChunks(input, destinationBase, plan.Breakpoints, options)
	if err != nil {
		return Result{LineCount: lineCount, Outputs: outputs, Plan: plan}, err
	}

	return Result{
		FilesWritten: len(outputs),
		LineCount:    lineCount,
		Warnings:     plan.Warnings(),
		Outputs:      outputs,
		Plan:         plan,
	}, nil
}
