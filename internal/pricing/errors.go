package pricing

import "fmt"

// FetchError is returned for any failed price lookup.
// Message is human readable and safe to show next to the position.
type FetchError struct {
	Symbol    string
	AssetType string
	Message   string
	Err       error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(symbol, assetType string, err error) *FetchError {
	return &FetchError{
		Symbol:    symbol,
		AssetType: assetType,
		Message:   fmt.Sprintf("failed to fetch price for %s (%s): %v", symbol, assetType, err),
		Err:       err,
	}
}
