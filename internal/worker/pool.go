package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"pagemark-backend/internal/events"
	"pagemark-backend/internal/models"
	"pagemark-backend/internal/services"
	"pagemark-backend/internal/store"
)

const processingQueue = "queue:document-processing"

// Pool runs the background document processors. Each worker blocks on the
// Redis queue, extracts the page count from the uploaded PDF, and flips the
// document to ready or failed.
type Pool struct {
	redis       *redis.Client
	docs        store.DocumentStore
	pdfInfo     *services.PDFInfoService
	broker      events.Broker
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, docs store.DocumentStore, pdfInfo *services.PDFInfoService, broker events.Broker, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		docs:        docs,
		pdfInfo:     pdfInfo,
		broker:      broker,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, processingQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var task models.ProcessTask
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			log.Printf("Worker %d: failed to parse task: %v", id, err)
			continue
		}

		p.process(ctx, id, task)
	}
}

func (p *Pool) process(ctx context.Context, id int, task models.ProcessTask) {
	pages, err := p.pdfInfo.PageCount(task.FilePath)
	if err != nil {
		log.Printf("Worker %d: document %s failed: %v", id, task.DocumentID, err)
		if err := p.docs.SetPageCount(ctx, task.DocumentID, 0, "failed"); err != nil {
			log.Printf("Worker %d: failed to mark document %s failed: %v", id, task.DocumentID, err)
		}
		p.publish(ctx, task, 0, "failed")
		return
	}

	if err := p.docs.SetPageCount(ctx, task.DocumentID, pages, "ready"); err != nil {
		log.Printf("Worker %d: failed to update document %s: %v", id, task.DocumentID, err)
		return
	}

	log.Printf("Worker %d: document %s ready (%d pages)", id, task.DocumentID, pages)
	p.publish(ctx, task, pages, "ready")
}

func (p *Pool) publish(ctx context.Context, task models.ProcessTask, pages int, status string) {
	ev := events.Event{
		Collection: events.CollectionDocuments,
		Action:     events.ActionUpdated,
		DocumentID: task.DocumentID,
		EntityID:   task.DocumentID,
		Payload:    map[string]interface{}{"total_pages": pages, "status": status},
	}
	if err := p.broker.Publish(ctx, task.UserID, ev); err != nil {
		log.Printf("worker: failed to publish document event: %v", err)
	}
}
