package common

import log "github.com/sirupsen/logrus"

// Prints an error log message for a request that was rejected or failed.
// Only the error string is logged, never the request body.
func LogRequestError(handler string, function string, err error) {
	log.WithFields(
		log.Fields{
			"Error":   err,
			"Message": "Request failed",
		},
	).Error(handler + ": " + function)
}

// Prints a debug log message when a request was served.
func LogRequestServed(handler string, function string, fields log.Fields) {
	log.WithFields(fields).Debug(handler + ": " + function)
}

func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}
