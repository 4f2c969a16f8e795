// Package remote implements a depgraph.Resolver that delegates
// getDependencies to a remote agent over the Agent2Agent wire protocol: one
// blocking message/send call per node, trimmed to exactly the task
// lifecycle a single-shot dependency query needs.
package remote

import "encoding/json"

// TaskState is the lifecycle state of a dependency-resolution task.
type TaskState string

const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateRejected  TaskState = "rejected"
)

// IsTerminal reports whether s is a final state for a blocking call.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateRejected:
		return true
	}
	return false
}

// Role identifies the sender of a Message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Task is the unit of work returned by a blocking message/send call.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// TaskStatus carries the task's current state and, on failure, a message.
type TaskStatus struct {
	State   TaskState `json:"state"`
	Message *Message  `json:"message,omitempty"`
}

// Message is a unit of communication between this resolver and the remote
// agent.
type Message struct {
	MessageID string `json:"messageId"`
	Role      Role   `json:"role"`
	Parts     []Part `json:"parts"`
}

// Part carries content within a Message or Artifact. Exactly one of Text
// or Data is set.
type Part struct {
	Text string          `json:"text,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DataPart marshals v into a structured-data Part.
func DataPart(v any) (Part, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Part{}, err
	}
	return Part{Data: data}, nil
}

// Artifact is an output produced by the remote agent for the task.
type Artifact struct {
	ArtifactID string `json:"artifactId"`
	Name       string `json:"name"`
	Parts      []Part `json:"parts"`
}

// SendMessageRequest initiates a task. Configuration.Blocking is always
// true for this resolver: a dependency query has no reason to return
// before the remote agent has an answer.
type SendMessageRequest struct {
	Message       Message           `json:"message"`
	Configuration SendMessageConfig `json:"configuration"`
}

// SendMessageConfig controls message handling behavior.
type SendMessageConfig struct {
	Blocking bool `json:"blocking"`
}

// dependencyQuery is the structured payload sent as the request message's
// data part.
type dependencyQuery struct {
	NodeID string `json:"nodeId"`
}

// dependencyResult is the structured payload expected back in the
// completed task's first artifact.
type dependencyResult struct {
	Dependencies []string `json:"dependencies"`
}
