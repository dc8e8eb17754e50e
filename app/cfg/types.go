package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath string

	// Application configuration
	InvitationFile    string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval time.Duration
	APIAccessKey      string

	// Live updates
	SubscriberBuffer int
	PingInterval     time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
