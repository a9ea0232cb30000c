package workers

import (
	"log"
	"sync"

	"github.com/camden-git/gallerysysbackend/services"
)

// RefreshJob asks for one role's derived album set to be recomputed.
type RefreshJob struct {
	RoleName string
}

// RoleRefresher recomputes role album sets in the background. Album tree
// mutations (new albums, deletions, gallery creation) change what a role's
// grants expand to, so every affected role is re-saved through the store,
// which rederives the set and invalidates member caches.
type RoleRefresher struct {
	JobQueue chan RefreshJob
	Store    *services.RoleStore
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewRoleRefresher(store *services.RoleStore, queueSize, numWorkers int) *RoleRefresher {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	refresher := &RoleRefresher{
		JobQueue: make(chan RefreshJob, queueSize),
		Store:    store,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}
	refresher.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go refresher.worker(i)
	}
	log.Printf("Started %d role refresh worker(s) with queue size %d", numWorkers, queueSize)
	return refresher
}

func (rr *RoleRefresher) worker(id int) {
	defer rr.Wg.Done()

	log.Printf("Role refresh worker %d started", id)
	for {
		select {
		case job, ok := <-rr.JobQueue:
			if !ok {
				log.Printf("Role refresh worker %d stopping: Job queue closed", id)
				return
			}

			rr.processRefresh(id, job)

			rr.Mutex.Lock()
			delete(rr.Pending, job.RoleName)
			rr.Mutex.Unlock()

		case <-rr.StopChan:
			log.Printf("Role refresh worker %d stopping: Stop signal received", id)
			return
		}
	}
}

func (rr *RoleRefresher) processRefresh(id int, job RefreshJob) {
	role, err := rr.Store.Get(job.RoleName)
	if err != nil {
		// role deleted between enqueue and processing
		log.Printf("Worker %d: Skipping refresh for role %q: %v", id, job.RoleName, err)
		return
	}

	if err := rr.Store.Save(role, role.RootAlbumIDs, services.SystemActor); err != nil {
		log.Printf("Worker %d: ERROR refreshing role %q: %v", id, job.RoleName, err)
		return
	}
	log.Printf("Worker %d: Refreshed derived album set for role %q", id, job.RoleName)
}

// QueueJob queues a refresh for one role if not already pending
func (rr *RoleRefresher) QueueJob(job RefreshJob) bool {
	rr.Mutex.Lock()
	if rr.Pending[job.RoleName] {
		rr.Mutex.Unlock()
		return false
	}
	rr.Pending[job.RoleName] = true
	rr.Mutex.Unlock()

	select {
	case rr.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: Role refresh job queue full. Failed to queue refresh for role %q", job.RoleName)
		rr.Mutex.Lock()
		delete(rr.Pending, job.RoleName)
		rr.Mutex.Unlock()
		return false
	}
}

// QueueAll queues a refresh for every known role, owner roles included.
func (rr *RoleRefresher) QueueAll() {
	roles, err := rr.Store.AllRoles(true)
	if err != nil {
		log.Printf("ERROR listing roles for refresh: %v", err)
		return
	}
	for i := range roles {
		rr.QueueJob(RefreshJob{RoleName: roles[i].Name})
	}
}

func (rr *RoleRefresher) Stop() {
	log.Println("Stopping role refresh workers...")
	close(rr.StopChan)
	rr.Wg.Wait()
	log.Println("All role refresh workers stopped")
}
