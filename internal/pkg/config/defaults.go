package config

// Defaults are applied before the config file is read, so the file and the
// environment can override every entry.
var Defaults = map[string]any{
	"app.tz":                                 "UTC",
	"app.node_id":                            1,
	"app.bootstrap.max_retries":              5,
	"app.server.max_goroutine":               100,
	"app.server.http.address":                ":8080",
	"jwt.ttl_minutes":                        1440,
	"mongo.database":                         "mediflow",
	"mongo.max_pool_size":                    50,
	"mongo.server_selection_timeout_seconds": 5,
	"messaging.driver":                       "memory",
	"storage.driver":                         "none",
	"otp.expiry_minutes":                     5,
	"otp.throttle.max":                       5,
	"otp.throttle.window_hours":              1,
	"otp.store.driver":                       "postgres",
	"otp.delivery.driver":                    "console",
	"otp.janitor.interval_minutes":           10,
	"otp.janitor.batch_size":                 500,
	"otp.admin.list_limit":                   20,
	"customer.register_lock_seconds":         30,
	"ratelimit.auth.limit":                   20,
	"ratelimit.auth.period_minutes":          15,
	"modules.delivery.consumer_names":        "otp_delivery_dispatch,customer_registered_welcome",
	"instrument.log_mask_fields":             "code,otp,authorization,access_token,x-admin-phone",
}
