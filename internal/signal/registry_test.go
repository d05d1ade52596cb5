package signal

import "testing"

func TestPublish_InvokesSubscribers(t *testing.T) {
	r := NewRegistry()

	var a, b int
	r.Subscribe(TopicProfileChanged, func() { a++ })
	r.Subscribe(TopicProfileChanged, func() { b++ })

	r.Publish(TopicProfileChanged)
	r.Publish(TopicProfileChanged)

	if a != 2 || b != 2 {
		t.Errorf("subscribers saw %d and %d publishes, want 2 and 2", a, b)
	}
}

func TestPublish_OtherTopicNotInvoked(t *testing.T) {
	r := NewRegistry()

	var calls int
	r.Subscribe(Topic("other"), func() { calls++ })

	r.Publish(TopicProfileChanged)
	if calls != 0 {
		t.Errorf("subscriber of other topic called %d times, want 0", calls)
	}
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	r := NewRegistry()

	var calls int
	cancel := r.Subscribe(TopicProfileChanged, func() { calls++ })

	r.Publish(TopicProfileChanged)
	cancel()
	cancel() // repeated unsubscribe is a no-op
	r.Publish(TopicProfileChanged)

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestUnsubscribe_DuringPublish(t *testing.T) {
	r := NewRegistry()

	var cancel func()
	var calls int
	cancel = r.Subscribe(TopicProfileChanged, func() {
		calls++
		cancel()
	})

	r.Publish(TopicProfileChanged)
	r.Publish(TopicProfileChanged)

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}
