package common

const (
	RedisStreamSchedulerTaskExecution = "schedule.task.execution"
	RedisStreamPriceAggregation       = "card.price.aggregation"

	RedisStreamGroup    = "analytics-group"
	RedisStreamConsumer = "analytics-consumer"
)
