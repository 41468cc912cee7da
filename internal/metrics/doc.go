// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的编译过程指标采集能力。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离。
Collector 实现 compile.Metrics 接口，通过 compile.WithMetrics 注入；
采集本身不做任何 I/O，指标暴露由宿主应用决定。

# 主要能力

  - 编译指标：编译总数（按 outcome 分组）、编译耗时直方图。
  - 图规模指标：每次编译的节点数与边数分布。
  - 校验指标：fatal 错误与 warning 累计计数。
*/
package metrics
