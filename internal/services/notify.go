package services

// notify sends value without blocking; a slow receiver misses updates.
func notify(progress chan<- int, value int) {
	if progress == nil {
		return
	}
	select {
	case progress <- value:
	default:
	}
}

// relayProgress returns a channel whose values are rescaled and forwarded to
// progress. stop must be called once nothing more is sent on the channel.
func relayProgress(progress chan<- int, scale func(int) int) (relay chan<- int, stop func()) {
	if progress == nil {
		return nil, func() {}
	}

	ch := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for value := range ch {
			notify(progress, scale(value))
		}
	}()
	return ch, func() {
		close(ch)
		<-done
	}
}
