package agent

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event is one recorded game tick. Jumping marks ticks spent in the air, where
// no decision is taken and Action is ignored.
type Event struct {
	State   State
	Jumping bool
	Action  Action
	Crashed bool
}

const eventFields = 6

// ReadEvents parses a crash log with one tick per record:
//
//	obstacleX,obstacleWidth,speed,jumping,action,crashed
//
// jumping and crashed are bools, action is "run" or "jump" (or 0 and 1).
// Records starting with '#' are comments.
func ReadEvents(r io.Reader) ([]Event, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = eventFields
	cr.TrimLeadingSpace = true

	var events []Event
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading events: %w", err)
		}
		line, _ := cr.FieldPos(0)

		var nums [3]float64
		for i := range nums {
			nums[i], err = strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %d: %w", line, i+1, err)
			}
		}
		jumping, err := strconv.ParseBool(record[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: jumping: %w", line, err)
		}
		action, err := parseAction(record[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		crashed, err := strconv.ParseBool(record[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: crashed: %w", line, err)
		}
		events = append(events, Event{
			State:   State{ObstacleX: nums[0], ObstacleWidth: nums[1], Speed: nums[2]},
			Jumping: jumping,
			Action:  action,
			Crashed: crashed,
		})
	}
	return events, nil
}

func parseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "run", "0":
		return Run, nil
	case "jump", "1":
		return Jump, nil
	}
	return Run, fmt.Errorf("unknown action %q", s)
}

// Replay feeds recorded ticks through the agent the way Decide would have seen
// them: ticks on the ground are observed, ticks in the air are not, so a crash
// mid-jump is blamed on the state the jump was taken in. Every crash becomes an
// example. It returns the number of examples added.
func (a *Agent) Replay(events []Event) int {
	added := 0
	for i := range events {
		ev := &events[i]
		if !ev.Jumping {
			a.Observe(&ev.State, ev.Action)
		}
		if ev.Crashed {
			a.RecordCrash(ev.Jumping)
			added++
		}
	}
	return added
}
