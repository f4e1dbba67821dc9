package logger

import "log/slog"

/*
Log attribute keys. Use the attribute constructors below rather than the keys
directly.
*/
const (
	ErrorKey  = "err"
	WordKey   = "word"
	SeqKey    = "seq"
	ModuleKey = "module"
)

/*
Error adds error to the log

	if err := f(); err != nil {
		log.Error("calling f", logger.Error(err))
	}
*/
func Error(err error) slog.Attr {
	return slog.Any(ErrorKey, err)
}

// Word is the dictionary word the logging call is about.
func Word(w string) slog.Attr {
	return slog.String(WordKey, w)
}

// Seq is the journal sequence number of a mutation.
func Seq(seq uint64) slog.Attr {
	return slog.Uint64(SeqKey, seq)
}

/*
Module names the component. Meant for logger.With when a component builds
its sub-logger, not for individual calls.
*/
func Module(name string) slog.Attr {
	return slog.String(ModuleKey, name)
}
