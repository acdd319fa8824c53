package trace

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TextSink renders events as the human-readable, line-per-event
// transcript described in spec.md §6: hexadecimal addresses, single
// letter states, one line per event. The exact wording is not
// contractual, but the set of lines is: initial hit/miss, eviction/
// write-back, bus-request kind, each snooper's hit and transition, the
// bus response and its source, the requester's transition, and a final
// state line.
type TextSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextSink wraps w (os.Stdout if nil).
func NewTextSink(w io.Writer) *TextSink {
	if w == nil {
		w = os.Stdout
	}
	return &TextSink{w: w}
}

func (t *TextSink) Handle(e Event) {
	if t == nil || t.w == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e.Kind {
	case KindInstructionBegin:
		fmt.Fprintln(t.w, "========================================")
		if e.ShowValue {
			fmt.Fprintf(t.w, "CPU - %d: Executing Instruction: %s @ addr 0x%x | data: 0x%x\n", e.CoreID, e.Op, e.Address, e.Value)
		} else {
			fmt.Fprintf(t.w, "CPU - %d: Executing Instruction: %s @ addr 0x%x\n", e.CoreID, e.Op, e.Address)
		}
		fmt.Fprintln(t.w, "========================================")

	case KindCacheAccess:
		status := "MISS"
		if e.Hit {
			status = "HIT"
		}
		fmt.Fprintf(t.w, "CPU - %d: Cache-%s @ addr 0x%x | initial state: %s\n", e.CoreID, status, e.Address, e.PresentState)

	case KindEviction:
		fmt.Fprintf(t.w, "CPU - %d: Conflict miss detected with dirty data | write-back required\n", e.CoreID)

	case KindWriteBack:
		fmt.Fprintf(t.w, "CPU - %d: Write-back completed | address: 0x%x | data: 0x%x written to memory\n", e.CoreID, e.Address, e.Value)

	case KindBusRequest:
		fmt.Fprintf(t.w, "CPU - %d: Sending Bus Request | %s @ addr 0x%x\n", e.CoreID, e.BusOp, e.Address)

	case KindSnoopHit:
		fmt.Fprintf(t.w, "CPU - %d: Snooped Cache-HIT @ addr 0x%x | state: %s\n", e.CoreID, e.Address, e.PresentState)

	case KindSnoopTransition:
		fmt.Fprintf(t.w, "CPU - %d: Snooped Cache-Line Transition | [%s->%s]\n", e.CoreID, e.PresentState, e.NextState)

	case KindBusResponse:
		source := "memory"
		if !e.DataFromMemory {
			source = fmt.Sprintf("CPU-%d", e.SupplierCore)
		}
		fmt.Fprintf(t.w, "CPU - %d: Requester Bus Response Received | data: 0x%x | from: %s\n", e.CoreID, e.Data, source)

	case KindRequesterTransition:
		fmt.Fprintf(t.w, "CPU - %d: Requesting Cache-Line Transition | [%s->%s]\n", e.CoreID, e.PresentState, e.NextState)

	case KindInstructionEnd:
		fmt.Fprintf(t.w, "CPU - %d: Operation completed | value: 0x%x | final state: %s\n", e.CoreID, e.Value, e.NextState)
	}
}
