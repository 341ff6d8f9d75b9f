package endpoints

import (
	"math/big"
	"net/http"

	httptransport "github.com/go-kit/kit/transport/http"
)

var (
	_ httptransport.Headerer = (*GreetResponse)(nil)

	_ httptransport.StatusCoder = (*GreetResponse)(nil)

	_ httptransport.Headerer = (*AddResponse)(nil)

	_ httptransport.StatusCoder = (*AddResponse)(nil)
)

// Failer may be implemented by response types that carry a business logic
// error. Transports encode a failed response as an error instead of a result.
type Failer interface {
	Failed() error
}

// GreetResponse collects the response values for the Greet method.
type GreetResponse struct {
	Greeting string `json:"greeting"`
	Err      error  `json:"-"`
}

func (r GreetResponse) Failed() error { return r.Err }

func (r GreetResponse) StatusCode() int {
	return http.StatusOK
}

func (r GreetResponse) Headers() http.Header {
	return http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}}
}

// AddResponse collects the response values for the Add method.
type AddResponse struct {
	Result *big.Int `json:"result"`
	Err    error `json:"-"`
}

func (r AddResponse) Failed() error { return r.Err }

func (r AddResponse) StatusCode() int {
	return http.StatusOK
}

func (r AddResponse) Headers() http.Header {
	return http.Header{}
}
