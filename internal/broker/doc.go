// Package broker connects the in-process dispatcher to a RabbitMQ topic
// exchange so several instances can fan out the same updates. Each
// instance publishes every envelope it produces and replays envelopes from
// its peers into the local dispatcher; an instance id header keeps an
// instance from re-delivering its own messages.
//
// The bridge is optional. Without a broker URL the service runs
// single-node and the dispatcher is the only publisher.
package broker
