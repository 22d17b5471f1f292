/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- Error: *.err
*/
package metrics

import (
	"time"

	"github.com/kreana/goapi/base/env"
	"github.com/kreana/goapi/base/log"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		tags: []string{
			"host:", // remove unused host tag
			"pod:" + env.PodName(),
			"env:" + cfg.EnvName,
			"app:" + cfg.AppName,
		},
	}
}

// Metrics prefixes every key with the package name
type Metrics struct {
	pkgName string
	tags    []string
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

func (mt *Metrics) allTags(tags []string) []string {
	res := make([]string, 0, len(mt.tags)+len(tags)/2)
	res = append(res, mt.tags...)
	return append(res, parseTag(tags)...)
}

// BumpAvg bumps the average for the given key. datadog has no average type so a gauge is used.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	if err := client().Gauge(mt.key(key), val, mt.allTags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": "BumpAvg"}).Error("Bump fail")
	}
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	if err := client().Count(mt.key(key), int64(val), mt.allTags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": "BumpSum"}).Error("Bump fail")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	if err := client().Histogram(mt.key(key), val, mt.allTags(tags), 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "func": "BumpHistogram"}).Error("Bump fail")
	}
}

// BumpTime starts a timer, End() records the elapsed time:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &ddTimeTracker{
		start: timeNow(),
		key:   mt.key(key),
		tags:  mt.allTags(tags),
	}
}

func parseTag(tags []string) []string {
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

var timeNow = time.Now
