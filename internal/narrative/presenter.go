package narrative

// Presenter is a dialogue panel. A Player drives two of them, one per Side,
// and only ever addresses the panel belonging to the current entry.
//
// Show and Hide start a transition and must invoke done exactly once when it
// completes. done may be called synchronously.
type Presenter interface {
	Initialize(Entry)
	Show(done func())
	Hide(done func())
	PlayEmotion(Emotion)
	SetText(string)
	Text() string
}

// CompletionSink is notified once the whole queue has played and the final
// panel has been hidden.
type CompletionSink interface {
	OnFinished()
}

// Hooks receives entry lifecycle notifications. OnSequenceEnd for an entry is
// always delivered before OnSequenceStart of the entry that follows it.
type Hooks interface {
	OnSequenceStart(index int, e Entry)
	OnSequenceEnd(index int, e Entry)
}

type noopHooks struct{}

func (noopHooks) OnSequenceStart(int, Entry) {}
func (noopHooks) OnSequenceEnd(int, Entry)   {}

// SinkFunc adapts a plain function to a CompletionSink.
type SinkFunc func()

func (f SinkFunc) OnFinished() {
	f()
}
