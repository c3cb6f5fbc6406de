package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"findash/internal/services"
)

// Inputs holds the raw bytes of one run's uploads.
type Inputs struct {
	Transactions []byte
	Accounts     []byte // nil when no accounts file was given
}

// ReadInputs reads the transactions file and, if accountsPath is not empty,
// the accounts file concurrently.
func ReadInputs(ctx context.Context, transactionsPath, accountsPath string) (*Inputs, error) {
	if transactionsPath == "" {
		return nil, fmt.Errorf("transactions file is required")
	}

	in := &Inputs{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := readFile(ctx, transactionsPath)
		if err != nil {
			return err
		}
		in.Transactions = data
		return nil
	})

	if accountsPath != "" {
		g.Go(func() error {
			data, err := readFile(ctx, accountsPath)
			if err != nil {
				return err
			}
			in.Accounts = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// DashboardInput wraps the bytes as readers for the dashboard service.
func (in *Inputs) DashboardInput() services.DashboardInput {
	di := services.DashboardInput{Transactions: bytes.NewReader(in.Transactions)}
	if in.Accounts != nil {
		di.Accounts = bytes.NewReader(in.Accounts)
	}
	return di
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
