package plugin

import (
	"fmt"
	"os"
	"path/filepath"
)

const templateBody = `"""
DO NOT REMOVE THIS CONSTANT!
Set the constant below to 1 if you do not wish to load this plugin.

Each hook invocation runs this script in its own subprocess with the
hook name as the first argument and a JSON context on stdin:
    {"hook": ..., "message": ..., "timestamp": ..., "work_duration": ...}
"""
_SHOULD_IGNORE = 0

import json
import sys


def on_init(context):
    pass


def on_work_start(context):
    pass


def on_break_reminder(context):
    pass


if __name__ == "__main__":
    context = json.load(sys.stdin)
    hook = sys.argv[1] if len(sys.argv) > 1 else context.get("hook", "")
    handler = globals().get(hook)
    if callable(handler):
        handler(context)


# Plugin info (optional)
PLUGIN_INFO = {
    "name": "",
    "version": "",
    "description": "",
    "author": ""
}
`

// Template writes a starter plugin named <name>.py into dir.
func Template(dir, name string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plugin directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".py")
	if err := os.WriteFile(path, []byte(templateBody), 0644); err != nil {
		return fmt.Errorf("write plugin template %s: %w", path, err)
	}
	return nil
}
