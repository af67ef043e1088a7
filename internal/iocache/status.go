package iocache

import (
	"fmt"
	"time"

	"github.com/huangsam/archmine/schema"
)

// PrintCacheStatus prints pattern cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Location: %s\n", status.Location)
	fmt.Printf("Total Entries: %d\n", status.Entries)
	if status.Entries > 0 {
		fmt.Printf("Oldest Entry: %s\n", time.Unix(status.OldestUnix, 0).Format("2006-01-02 15:04:05"))
		fmt.Printf("Newest Entry: %s\n", time.Unix(status.NewestUnix, 0).Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.SizeBytes)
}
