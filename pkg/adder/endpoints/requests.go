package endpoints

import "math/big"

// GreetRequest collects the request parameters for the Greet method.
type GreetRequest struct{}

// AddRequest collects the request parameters for the Add method.
type AddRequest struct {
	A *big.Int `json:"a"`
	B *big.Int `json:"b"`
}
