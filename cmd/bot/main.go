package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"snatch/participant"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "arena websocket endpoint")
	count := flag.Int("n", 1, "number of bots")
	leg := flag.Int("leg", 90, "frames per side of each loop")
	backoff := flag.Duration("backoff", 2*time.Second, "reconnect delay")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < *count; i++ {
		p := participant.New(participant.Options{
			URL:     *url,
			Name:    fmt.Sprintf("bot%d", i+1),
			Pilot:   participant.Looper{Leg: *leg + 10*i},
			Backoff: *backoff,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(ctx)
		}()
	}

	log.Printf("%d bot(s) flying against %s", *count, *url)
	wg.Wait()
}
