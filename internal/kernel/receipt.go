package kernel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const receiptSuffix = ".receipt.json"

// Receipt records where and when a cached kernel was downloaded. It sits
// next to the kernel directory, never inside it, so it is not copied into
// projects.
type Receipt struct {
	Kernel    string    `json:"kernel"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (c *Cache) receiptPath(id string) string {
	return filepath.Join(c.root, id+receiptSuffix)
}

// LoadReceipt reads the receipt for kernel id.
// Returns nil, nil if the kernel was never downloaded by this tool.
func (c *Cache) LoadReceipt(id string) (*Receipt, error) {
	data, err := os.ReadFile(c.receiptPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading receipt for %s: %w", id, err)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt for %s: %w", id, err)
	}
	return &r, nil
}

// SaveReceipt writes the receipt for r.Kernel into the cache root.
func (c *Cache) SaveReceipt(r *Receipt) error {
	if err := ValidateID(r.Kernel); err != nil {
		return err
	}
	if _, err := c.Ensure(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling receipt: %w", err)
	}
	if err := os.WriteFile(c.receiptPath(r.Kernel), data, 0644); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}
	return nil
}
