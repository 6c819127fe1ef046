package service

// OperationRecorder counts service operations by outcome
type OperationRecorder interface {
	RecordOperation(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, string) {}

func recorderOrNoop(r OperationRecorder) OperationRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	return KindOf(err).String()
}
