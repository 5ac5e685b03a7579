package graph

import "fmt"

// NodeError is returned by Invoke when a node fails. It records which node
// failed and unwraps to the node's original error, so callers can use
// errors.Is on the cause and errors.As to recover the node name.
type NodeError struct {
	// Node is the name of the node that returned the error
	Node string
	// Err is the error returned by the node function
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("error in node %s: %v", e.Node, e.Err)
}

// Unwrap returns the node's original error.
func (e *NodeError) Unwrap() error {
	return e.Err
}
