// Package messaging is a broker-agnostic publish/consume client with NATS,
// NSQ, Kafka, Google Pub/Sub and in-memory drivers. The OTP broker notifier
// publishes through it and the delivery worker consumes through it.
package messaging
