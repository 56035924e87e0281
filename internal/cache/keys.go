package cache

import "fmt"

func ProductKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func ProductSlugKey(slug string) string {
	return fmt.Sprintf("product:slug:%s", slug)
}
