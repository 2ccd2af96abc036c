package lifecycle

import (
	"fmt"
	"time"
)

// Stage names for the order delivery graph.
const (
	StageProcessing     = "Processing"
	StagePacked         = "Packed"
	StageShipped        = "Shipped"
	StageOutForDelivery = "Out for Delivery"
	StageDelivered      = "Delivered"
)

// Stage names for the return graphs. Pending, Approved and Picked Up are
// shared by both; the refund graph ends in Refunded, the replacement graph
// goes through Quality Check and Dispatched before Delivered.
const (
	StagePending      = "Pending"
	StageApproved     = "Approved"
	StagePickedUp     = "Picked Up"
	StageRefunded     = "Refunded"
	StageQualityCheck = "Quality Check"
	StageDispatched   = "Dispatched"

	// StageRejected is terminal and lives outside every graph: once a
	// return carries it, time-based progression is frozen for good.
	StageRejected = "Rejected"
)

// Return request types.
const (
	ReturnTypeRefund  = "refund"
	ReturnTypeReplace = "replace"
)

// StageDef describes one reachable point in a progression graph. After is
// the elapsed time since the record's anchor timestamp at which the stage
// becomes reachable; the first stage of every graph has After == 0 because
// it is the record's initial state by construction.
type StageDef struct {
	Stage   string
	After   time.Duration
	Message string
}

// Graph is an ordered stage table. Thresholds are strictly increasing;
// the engine walks it front to back and never skips around.
type Graph []StageDef

// Index returns the position of stage in the graph, or -1.
func (g Graph) Index(stage string) int {
	for i, def := range g {
		if def.Stage == stage {
			return i
		}
	}
	return -1
}

func (g Graph) Contains(stage string) bool {
	return g.Index(stage) >= 0
}

// OrderGraph is the delivery progression for placed orders.
var OrderGraph = Graph{
	{Stage: StageProcessing, After: 0, Message: "Order placed and is being processed"},
	{Stage: StagePacked, After: 10 * time.Second, Message: "Order has been packed"},
	{Stage: StageShipped, After: 20 * time.Second, Message: "Order shipped from warehouse"},
	{Stage: StageOutForDelivery, After: 30 * time.Second, Message: "Order is out for delivery"},
	{Stage: StageDelivered, After: 40 * time.Second, Message: "Order delivered"},
}

// RefundGraph is the progression for refund-type return requests.
var RefundGraph = Graph{
	{Stage: StagePending, After: 0, Message: "Return request received"},
	{Stage: StageApproved, After: 5 * time.Second, Message: "Return request approved"},
	{Stage: StagePickedUp, After: 10 * time.Second, Message: "Item picked up from customer"},
	{Stage: StageRefunded, After: 15 * time.Second, Message: "Refund issued to customer"},
}

// ReplaceGraph is the progression for replacement-type return requests.
var ReplaceGraph = Graph{
	{Stage: StagePending, After: 0, Message: "Replacement request received"},
	{Stage: StageApproved, After: 5 * time.Second, Message: "Replacement request approved"},
	{Stage: StagePickedUp, After: 10 * time.Second, Message: "Item picked up from customer"},
	{Stage: StageQualityCheck, After: 15 * time.Second, Message: "Item undergoing quality check"},
	{Stage: StageDispatched, After: 20 * time.Second, Message: "Replacement dispatched"},
	{Stage: StageDelivered, After: 25 * time.Second, Message: "Replacement delivered"},
}

// ReturnGraphFor selects the graph for a return request type. The type is
// fixed at request creation; callers resolve the graph once per advance and
// never switch mid-walk.
func ReturnGraphFor(returnType string) (Graph, error) {
	switch returnType {
	case ReturnTypeRefund:
		return RefundGraph, nil
	case ReturnTypeReplace:
		return ReplaceGraph, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReturnType, returnType)
	}
}
