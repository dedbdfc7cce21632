package worker

// Subscriber registers its event handlers on a dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartEventSubscribers registers the handlers of every non-nil subscriber.
func StartEventSubscribers(subscribers ...Subscriber) {
	for _, subscriber := range subscribers {
		if subscriber == nil {
			continue
		}
		subscriber.RegisterHandlers()
	}
}
