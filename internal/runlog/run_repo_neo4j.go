package runlog

import (
	"context"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

const saverChanBuffer = 100

type RunLedgerNeo4jRepo struct {
	driver    neo4j.DriverWithContext
	logger    *zap.SugaredLogger
	saverChan chan RunRecord
	workers   sync.WaitGroup
}

func NewNeo4jRepo(logger *zap.SugaredLogger, driver neo4j.DriverWithContext) *RunLedgerNeo4jRepo {
	return &RunLedgerNeo4jRepo{
		driver:    driver,
		logger:    logger,
		saverChan: make(chan RunRecord, saverChanBuffer),
	}
}

func (repo *RunLedgerNeo4jRepo) EnsureConnectivity() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return repo.driver.VerifyConnectivity(ctx)
}

func (repo *RunLedgerNeo4jRepo) SaveRun(record RunRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	params, errParams := record.toParams()
	if errParams != nil {
		repo.logger.Errorf("failed to build run params: %v", errParams)
		return errParams
	}

	_, errQuery := neo4j.ExecuteQuery(ctx, repo.driver, `
		MERGE (j:Jurisdiction {name: $jurisdiction})
		ON CREATE SET j.rootURL = $rootURL
		ON MATCH SET j.rootURL = $rootURL
		MERGE (r:Run {id: $runID})
		SET r.startedAt = $startedAt, r.finishedAt = $finishedAt, r.tasks = $tasks, r.status = $status
		MERGE (j)-[:EXECUTED]->(r)
	`,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase("runs"),
	)

	if errQuery != nil {
		repo.logger.Errorf("failed to save run record: %v", errQuery)
		return errQuery
	}

	repo.logger.Debugw("run recorded", "runID", record.RunID, "jurisdiction", record.Jurisdiction)

	return nil
}

func (repo *RunLedgerNeo4jRepo) GetSaverChan() chan<- RunRecord {
	return repo.saverChan
}

// StartSaverWorkers drains the saver channel; errors are logged and the record
// dropped, the ledger is advisory.
func (repo *RunLedgerNeo4jRepo) StartSaverWorkers(workers int) {
	for range workers {
		repo.workers.Add(1)
		go func() {
			defer repo.workers.Done()
			for record := range repo.saverChan {
				if err := repo.SaveRun(record); err != nil {
					repo.logger.Warnw("failed to persist run record", "runID", record.RunID, "err", err)
				}
			}
		}()
	}
}

// Stop closes the saver channel, waits for the workers to flush buffered
// records, then closes the driver.
func (repo *RunLedgerNeo4jRepo) Stop(ctx context.Context) error {
	close(repo.saverChan)

	done := make(chan struct{})
	go func() {
		repo.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return repo.driver.Close(ctx)
}
