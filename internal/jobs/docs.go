// Package jobs provides the scheduled background tasks of the fulfillment
// ledger, implemented with github.com/robfig/cron/v3.
//
// The only job is the OutboxRelayJob: it runs every second, drains staged
// status-change notifications from the outbox table and publishes them to the
// event sink. Because events are staged in the same transaction as the
// transition that produced them and relayed afterwards, a notification is
// sent if and only if the transition committed, at least once.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(outboxRepo, publisher, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
