package cli

// Options holds every command-line flag. All of them are optional; with no
// flags the run reads ./phishurl-list and writes ./phishurl.db3.
type Options struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	Root    string `long:"root" description:"Directory holding the year folders"`
	Out     string `long:"out" description:"SQLite file to write"`
	Driver  string `long:"driver" description:"SQLite driver" choice:"sqlite3" choice:"sqlite"`
	Report  string `long:"report" description:"Also write a Markdown run report to this path"`
	Strict  bool   `long:"strict" description:"Fail on the first undecodable or invalid record"`
	Verbose bool   `short:"v" long:"verbose" description:"Log progress and print a run summary to stderr"`
	Version bool   `long:"version" description:"Show version and exit"`
}
