package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Journey definitions, stored as documents
			CREATE TABLE journeys (
				id VARCHAR(255) PRIMARY KEY,
				account VARCHAR(255) NOT NULL,
				name VARCHAR(255),
				start_state VARCHAR(255) NOT NULL,
				states JSONB NOT NULL DEFAULT '{}',
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_journeys_account ON journeys(account);

			-- Journey runs, one per triggering event
			CREATE TABLE journey_runs (
				id VARCHAR(255) PRIMARY KEY,
				account VARCHAR(255) NOT NULL,
				contact VARCHAR(255) NOT NULL,
				journey VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('RUNNING', 'COMPLETED', 'FAILED')),
				time_started BIGINT NOT NULL,
				time_ended BIGINT,
				trigger_event JSONB NOT NULL DEFAULT '{}',
				results JSONB NOT NULL DEFAULT '{}',
				version INTEGER NOT NULL DEFAULT 1
			);

			CREATE INDEX idx_journey_runs_journey ON journey_runs(journey);
			CREATE INDEX idx_journey_runs_contact ON journey_runs(contact);
			CREATE INDEX idx_journey_runs_status ON journey_runs(status);
		`,
	}
}
