package realtime

import "testing"

func TestNext_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{"idle dials", StateIdle, EventDial, StateConnecting},
		{"connecting opens", StateConnecting, EventOpened, StateOpen},
		{"connecting fails", StateConnecting, EventClosed, StateClosed},
		{"open closes", StateOpen, EventClosed, StateClosed},
		{"closed redials", StateClosed, EventDial, StateConnecting},
		{"idle stop", StateIdle, EventStop, StateStopped},
		{"open stop", StateOpen, EventStop, StateStopped},
		{"closed stop", StateClosed, EventStop, StateStopped},
		// invalid transitions leave state unchanged
		{"idle cannot open", StateIdle, EventOpened, StateIdle},
		{"open cannot redial", StateOpen, EventDial, StateOpen},
		{"closed cannot open", StateClosed, EventOpened, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Next(tt.state, tt.event); got != tt.want {
				t.Errorf("Next(%v, %v) = %v, want %v", tt.state, tt.event, got, tt.want)
			}
		})
	}
}

func TestNext_StoppedIsTerminal(t *testing.T) {
	for _, ev := range []Event{EventDial, EventOpened, EventClosed, EventStop} {
		if got := Next(StateStopped, ev); got != StateStopped {
			t.Errorf("Next(stopped, %v) = %v, want stopped", ev, got)
		}
	}
}
